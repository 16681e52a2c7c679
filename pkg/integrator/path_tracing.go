package integrator

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// PathTracingIntegrator implements unidirectional path tracing with material
// importance sampling
type PathTracingIntegrator struct {
	Background                Background
	RussianRouletteMinBounces int // Bounces before paths may be terminated early
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		Background:                background,
		RussianRouletteMinBounces: 3,
	}
}

// Shade implements the Integrator interface
func (pt *PathTracingIntegrator) Shade(ray core.Ray, world geometry.Shape, maxDepth int, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, world, sampler, maxDepth, 0, core.NewVec3(1, 1, 1))
}

// rayColor computes the color for a single ray, recursing on scattered rays
func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth, bounce int, throughput core.Vec3) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	shouldTerminate, rrCompensation := pt.applyRussianRoulette(bounce, throughput, sampler)
	if shouldTerminate {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, rayTMin, rayTMax)
	if !isHit {
		return pt.Background.Color(ray).Multiply(rrCompensation)
	}

	colorEmitted := emittedLight(ray, hit)

	mat, ok := hit.Material.(material.Material)
	if !ok {
		// Shapes without a usable material only contribute their emission
		return colorEmitted.Multiply(rrCompensation)
	}

	scatter, didScatter := mat.Scatter(ray, hit, sampler)
	if !didScatter {
		return colorEmitted.Multiply(rrCompensation)
	}

	var colorScattered core.Vec3
	if scatter.IsSpecular() {
		newThroughput := throughput.MultiplyVec(scatter.Attenuation)
		colorScattered = scatter.Attenuation.MultiplyVec(
			pt.rayColor(scatter.Scattered, world, sampler, depth-1, bounce+1, newThroughput))
	} else {
		cosine := scatter.Scattered.Direction.Normalize().Dot(hit.Normal)
		if cosine > 0 {
			weight := scatter.Attenuation.Multiply(cosine / scatter.PDF)
			newThroughput := throughput.MultiplyVec(weight)
			colorScattered = weight.MultiplyVec(
				pt.rayColor(scatter.Scattered, world, sampler, depth-1, bounce+1, newThroughput))
		}
	}

	return colorEmitted.Add(colorScattered).Multiply(rrCompensation)
}

// emittedLight returns the emitted light from a material if it's emissive
func emittedLight(ray core.Ray, hit *geometry.HitRecord) core.Vec3 {
	if emitter, isEmissive := hit.Material.(material.Emitter); isEmissive {
		return emitter.Emit(ray, hit)
	}
	return core.Vec3{}
}

// applyRussianRoulette determines if a ray should be terminated and returns the compensation factor
func (pt *PathTracingIntegrator) applyRussianRoulette(bounce int, throughput core.Vec3, sampler core.Sampler) (bool, float64) {
	if bounce < pt.RussianRouletteMinBounces {
		return false, 1.0
	}

	// Conservative bounds: survivalProb between 0.5 and 0.95
	// This naturally limits compensation factor to between 1.05x and 2.0x
	survivalProb := math.Min(0.95, math.Max(0.5, throughput.Luminance()))

	if sampler.Get1D() > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}

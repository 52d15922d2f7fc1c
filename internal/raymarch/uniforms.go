package raymarch

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/nimbus/internal/view"
)

// Texture units the GPU program samples from.
const (
	VolumeTextureUnit   = 0
	TransferTextureUnit = 1
)

// Uniform names shared with raymarching.frag.
const (
	UniformVolumeTexture        = "volumeTexture"
	UniformTransferFunction     = "transferFunction"
	UniformStepSize             = "stepSize"
	UniformDensity              = "density"
	UniformThreshold            = "threshold"
	UniformEnableLighting       = "enableLighting"
	UniformAbsorption           = "absorptionCoeff"
	UniformScattering           = "scatteringCoeff"
	UniformLightDir             = "lightDir"
	UniformMaxSteps             = "maxSteps"
	UniformEnableJittering      = "enableJittering"
	UniformMSAASamples          = "msaaSamples"
	UniformMSAARadius           = "msaaRadius"
	UniformMultipleScattering   = "enableMultipleScattering"
	UniformMultiScatterSteps    = "multiScatterSteps"
	UniformMultiScatterStrength = "multiScatterStrength"
	UniformAlphaScale           = "alphaScale"
	UniformShadowMin            = "shadowMin"
	UniformShadowAtten          = "shadowAtten"
	UniformInvView              = "invView"
	UniformInvProjection        = "invProjection"
	UniformCameraPos            = "cameraPos"
	UniformTime                 = "time"
	UniformResolution           = "resolution"
)

// UniformSetter is the part of a GPU program BindUniforms needs.
type UniformSetter interface {
	SetBool(name string, v bool)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, v mgl32.Mat4)
}

// BindUniforms uploads one frame's inputs. The program must be in use.
func BindUniforms(u UniformSetter, p Params, vs view.State, elapsed float32, width, height int) {
	p = p.Sanitized()
	d := p.Derived()

	u.SetInt(UniformVolumeTexture, VolumeTextureUnit)
	u.SetInt(UniformTransferFunction, TransferTextureUnit)

	u.SetFloat(UniformStepSize, p.StepSize)
	u.SetFloat(UniformDensity, p.Density)
	u.SetFloat(UniformThreshold, p.Threshold)
	u.SetInt(UniformMaxSteps, int32(p.MaxSteps))
	u.SetBool(UniformEnableJittering, p.EnableJittering)

	u.SetBool(UniformEnableLighting, p.EnableLighting)
	u.SetFloat(UniformAbsorption, p.AbsorptionCoeff)
	u.SetFloat(UniformScattering, p.ScatteringCoeff)
	u.SetVec3(UniformLightDir, p.LightDir)

	u.SetInt(UniformMSAASamples, int32(p.MSAASamples))
	u.SetFloat(UniformMSAARadius, p.MSAARadius)

	u.SetBool(UniformMultipleScattering, p.EnableMultipleScattering)
	u.SetInt(UniformMultiScatterSteps, int32(p.MultiScatterSteps))
	u.SetFloat(UniformMultiScatterStrength, p.MultiScatterStrength)

	u.SetFloat(UniformAlphaScale, d.AlphaScale)
	u.SetFloat(UniformShadowMin, d.ShadowMin)
	u.SetFloat(UniformShadowAtten, d.ShadowAttenuation)

	u.SetMat4(UniformInvView, vs.InvView)
	u.SetMat4(UniformInvProjection, vs.InvProjection)
	u.SetVec3(UniformCameraPos, vs.Position)
	u.SetFloat(UniformTime, elapsed)
	u.SetVec2(UniformResolution, mgl32.Vec2{float32(width), float32(height)})
}

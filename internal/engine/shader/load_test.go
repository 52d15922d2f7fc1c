package shader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/nimbus/internal/assets"
	"github.com/Faultbox/nimbus/internal/raymarch"
)

func TestSourceFallsBackToEmbedded(t *testing.T) {
	src, err := Source(assets.NewManager(t.TempDir()), RaymarchFragment)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if !strings.HasPrefix(src, "#version 410 core") {
		t.Errorf("unexpected header: %q", src[:20])
	}
}

func TestSourcePrefersOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RaymarchVertex), []byte("// custom"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Source(assets.NewManager(dir), RaymarchVertex)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if src != "// custom" {
		t.Errorf("got %q, want override", src)
	}
}

func TestSourceMissing(t *testing.T) {
	_, err := Source(nil, "nope.frag")
	if !errors.Is(err, assets.ErrResourceMissing) {
		t.Errorf("err = %v, want ErrResourceMissing", err)
	}
}

// Every uniform the CPU side binds must be declared by the fragment shader.
func TestFragmentDeclaresBoundUniforms(t *testing.T) {
	names := []string{
		raymarch.UniformVolumeTexture, raymarch.UniformTransferFunction,
		raymarch.UniformStepSize, raymarch.UniformDensity, raymarch.UniformThreshold,
		raymarch.UniformEnableLighting, raymarch.UniformAbsorption, raymarch.UniformScattering,
		raymarch.UniformLightDir, raymarch.UniformMaxSteps, raymarch.UniformEnableJittering,
		raymarch.UniformMSAASamples, raymarch.UniformMSAARadius,
		raymarch.UniformMultipleScattering, raymarch.UniformMultiScatterSteps,
		raymarch.UniformMultiScatterStrength, raymarch.UniformAlphaScale,
		raymarch.UniformShadowMin, raymarch.UniformShadowAtten, raymarch.UniformInvView,
		raymarch.UniformInvProjection, raymarch.UniformCameraPos, raymarch.UniformTime,
		raymarch.UniformResolution,
	}
	for _, n := range names {
		if !strings.Contains(raymarchFrag, " "+n+";") {
			t.Errorf("uniform %s not declared in %s", n, RaymarchFragment)
		}
	}
}

func TestBuildErrorMessage(t *testing.T) {
	err := error(&BuildError{Stage: StageFragment, Log: "0:12: syntax error"})
	if got := err.Error(); got != "shader fragment: 0:12: syntax error" {
		t.Errorf("unexpected message %q", got)
	}

	var be *BuildError
	if !errors.As(fmt.Errorf("ray-march program: %w", err), &be) || be.Stage != StageFragment {
		t.Errorf("expected wrapped fragment BuildError, got %v", be)
	}
}

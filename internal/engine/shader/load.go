package shader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/assets"
	"github.com/Faultbox/nimbus/internal/logger"
)

// SourceLoader reads shader override files.
type SourceLoader interface {
	Load(name string) ([]byte, error)
}

// Source returns the text of a shader file: an on-disk override when the
// loader has one, else the embedded copy. Neither present is
// assets.ErrResourceMissing.
func Source(loader SourceLoader, name string) (string, error) {
	if loader != nil {
		data, err := loader.Load(name)
		if err == nil {
			logger.Log.Info("using shader override", zap.String("name", name))
			return string(data), nil
		}
		if !errors.Is(err, assets.ErrResourceMissing) {
			return "", err
		}
	}
	if src, ok := embedded[name]; ok {
		return src, nil
	}
	return "", fmt.Errorf("%w: shader %s", assets.ErrResourceMissing, name)
}

// Load resolves both sources and builds the program.
func Load(loader SourceLoader, vertName, fragName string) (*Program, error) {
	vs, err := Source(loader, vertName)
	if err != nil {
		return nil, err
	}
	fs, err := Source(loader, fragName)
	if err != nil {
		return nil, err
	}
	p, err := NewProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("building %s+%s: %w", vertName, fragName, err)
	}
	return p, nil
}

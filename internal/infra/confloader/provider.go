package confloader

import "errors"

// errMapReadBytes is returned by mapProvider.ReadBytes.
var errMapReadBytes = errors.New("confloader: map provider has no byte form")

// mapProvider feeds an in-memory map to koanf. koanf calls Read when the
// parser passed to Load is nil.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errMapReadBytes
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

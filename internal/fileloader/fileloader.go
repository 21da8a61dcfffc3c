package fileloader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LoadableSimple is anything that can be loaded from a flat file.
type LoadableSimple interface {
	Validate() error  // General validation (or none)
	Filepath() string // Relative file path to some base directory
}

func LoadFlatFile[T LoadableSimple](path string) (T, error) {

	var loaded T

	// Pre-allocate pointer targets. An empty document never assigns
	// through the pointer, which would leave it nil for Validate().
	if t := reflect.TypeOf(loaded); t != nil && t.Kind() == reflect.Ptr {
		loaded = reflect.New(t.Elem()).Interface().(T)
	}

	path = filepath.FromSlash(path)

	fileInfo, err := os.Stat(path)
	if err != nil {
		return loaded, errors.Wrap(err, `filepath: `+path)
	}

	if fileInfo.IsDir() {
		return loaded, errors.New(`filepath: ` + path + ` is a directory`)
	}

	fpathLower := strings.ToLower(path)

	if strings.HasSuffix(fpathLower, ".yaml") || strings.HasSuffix(fpathLower, ".yml") {

		bytes, err := os.ReadFile(path)
		if err != nil {
			return loaded, errors.Wrap(err, `filepath: `+path)
		}

		err = yaml.Unmarshal(bytes, &loaded)
		if err != nil {
			return loaded, errors.Wrap(err, `filepath: `+path)
		}

	} else if strings.HasSuffix(fpathLower, ".json") {

		bytes, err := os.ReadFile(path)
		if err != nil {
			return loaded, errors.Wrap(err, `filepath: `+path)
		}

		err = json.Unmarshal(bytes, &loaded)
		if err != nil {
			return loaded, errors.Wrap(err, `filepath: `+path)
		}

	} else {
		// Skip the file altogether
		return loaded, errors.New(`invalid file type: ` + path)
	}

	// validate the structure
	if err := loaded.Validate(); err != nil {
		return loaded, errors.Wrap(err, `filepath: `+path)
	}

	return loaded, nil
}

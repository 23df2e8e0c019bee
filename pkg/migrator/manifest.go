package migrator

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"github.com/segmentio/encoding/json"
)

var manifestValidator = validator.New()

type (
	// Manifest declares folders whose migrations run before and after a folder's own migrations.
	// Each list, when present, must be non-empty and hold non-empty folder names.
	Manifest struct {
		Before []string `json:"before" validate:"omitempty,min=1,dive,required"`
		After  []string `json:"after" validate:"omitempty,min=1,dive,required"`
	}

	// ManifestError reports a migrations.json that could not be decoded or validated.
	ManifestError struct {
		Path string
		Err  error
	}
)

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *ManifestError) Cause() error {
	return e.Err
}

// LoadManifest reads folder/migrations.json. A missing manifest is an empty Manifest.
//
// Example migrations.json:
//
//	{
//	  "before": ["shared/extensions"],
//	  "after": ["shared/grants"]
//	}
func LoadManifest(fsys FS, folder string) (Manifest, error) {
	file := path.Join(folder, consts.ManifestFile)

	data, err := fsys.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, nil
		}

		return Manifest{}, errors.Wrapf(err, "failed to read %s", file)
	}

	m, err := DecodeManifest(data)
	if err != nil {
		return Manifest{}, &ManifestError{Path: file, Err: err}
	}

	return m, nil
}

// DecodeManifest decodes and validates manifest JSON. Unknown keys, empty lists, empty folder
// names, manifests declaring neither list and anything following the object are rejected.
func DecodeManifest(data []byte) (Manifest, error) {
	var m Manifest

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, err
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return Manifest{}, errors.New("unexpected data after manifest object")
	}

	if m.Before == nil && m.After == nil {
		return Manifest{}, errors.New("manifest must declare before or after")
	}

	if err := manifestValidator.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Manifest{}, errors.Errorf("%s: failed %q validation", verrs[0].Namespace(), verrs[0].Tag())
		}

		return Manifest{}, err
	}

	return m, nil
}

// Folders returns the before folders, folder, then the after folders.
func (m Manifest) Folders(folder string) []string {
	folders := make([]string, 0, len(m.Before)+len(m.After)+1)
	folders = append(folders, m.Before...)
	folders = append(folders, folder)
	return append(folders, m.After...)
}

package catalog

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"resumescan/internal/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileProfile is the YAML shape of one role profile
type fileProfile struct {
	Name       string   `yaml:"name" validate:"required"`
	Core       []string `yaml:"core" validate:"required,min=1,dive,required"`
	Important  []string `yaml:"important" validate:"dive,required"`
	NiceToHave []string `yaml:"niceToHave" validate:"dive,required"`
}

type fileIndustry struct {
	Name     string   `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// fileCatalog is the YAML document accepted by LoadFile.
// Omitted generic or industries sections fall back to the built-in ones.
type fileCatalog struct {
	Roles      []fileProfile  `yaml:"roles" validate:"required,min=1,dive"`
	Generic    *fileProfile   `yaml:"generic" validate:"omitempty"`
	Industries []fileIndustry `yaml:"industries" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a YAML catalog from path
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("Catalog file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read catalog file: %s", path), err)
	}

	c, err := Parse(data)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc fileCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidCatalog, "Catalog is not valid YAML", err)
	}

	if err := validate.Struct(doc); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidCatalog,
			"Catalog failed validation: "+describeValidation(err), err)
	}

	roles := make([]RoleProfile, 0, len(doc.Roles))
	for _, fp := range doc.Roles {
		p, err := NewRoleProfile(fp.Name, fp.Core, fp.Important, fp.NiceToHave)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidCatalog, err.Error(), err)
		}
		roles = append(roles, p)
	}

	builtin := Default()
	generic := builtin.Generic()
	if doc.Generic != nil {
		name := doc.Generic.Name
		p, err := NewRoleProfile(name, doc.Generic.Core, doc.Generic.Important, doc.Generic.NiceToHave)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidCatalog, err.Error(), err)
		}
		generic = p
	}

	industries := builtin.Industries()
	if doc.Industries != nil {
		industries = make([]Industry, 0, len(doc.Industries))
		for _, fi := range doc.Industries {
			industries = append(industries, Industry{Name: fi.Name, Keywords: fi.Keywords})
		}
	}

	c, err := New(roles, generic, industries)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidCatalog, err.Error(), err)
	}
	return c, nil
}

// describeValidation flattens validator errors into one readable line
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

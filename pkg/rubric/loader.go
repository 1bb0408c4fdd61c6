package rubric

import (
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const weightTolerance = 1e-9

// Load reads a rubric definition from a YAML or JSON file.
func Load(path string) (r Rubric, err error) {
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read rubric file: %s", path)
		return r, err
	}

	// YAML is a superset of JSON, so one decoder covers both formats.
	err = yaml.Unmarshal(fileData, &r)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse rubric: %s", path)
		return r, err
	}

	err = r.Validate()
	if err != nil {
		err = errors.Wrap(err, "rubric validation failed")
		return r, err
	}

	return r, err
}

// Validate checks structure, id uniqueness and that weights sum to 100.
func (r *Rubric) Validate() (err error) {
	err = validator.New().Struct(r)
	if err != nil {
		err = errors.Wrap(err, "invalid rubric structure")
		return err
	}

	sectionIDs := make(map[string]bool)
	questionIDs := make(map[string]bool)
	for _, section := range r.Sections {
		if sectionIDs[section.ID] {
			err = errors.Errorf("duplicate section id: %s", section.ID)
			return err
		}
		sectionIDs[section.ID] = true

		for _, q := range section.Questions {
			if questionIDs[q.ID] {
				err = errors.Errorf("duplicate question id %s in section %s", q.ID, section.ID)
				return err
			}
			questionIDs[q.ID] = true
		}
	}

	total := r.TotalWeight()
	if math.Abs(total-100) > weightTolerance {
		err = errors.Errorf("section weights must sum to 100, got %g", total)
		return err
	}

	return err
}

package providers

import (
	"fmt"
	"time"

	"github.com/gookit/validate"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct-tag rules plus the cross-field checks the tags
// cannot express (date and clock formats of the report rules).
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors.OneError()
	}

	if _, err := time.Parse("2006-01-02", cv.conf.Reports.CollectionStartDate); err != nil {
		return fmt.Errorf("reports.collectionStartDate must be YYYY-MM-DD: %w", err)
	}
	for name, val := range map[string]string{
		"reports.closureStart": cv.conf.Reports.ClosureStart,
		"reports.closureEnd":   cv.conf.Reports.ClosureEnd,
	} {
		if _, err := time.Parse("15:04", val); err != nil {
			return fmt.Errorf("%s must be HH:MM: %w", name, err)
		}
	}
	if cv.conf.Reports.MaxPageSize < cv.conf.Reports.PageSize {
		return fmt.Errorf("reports.maxPageSize must be >= reports.pageSize")
	}
	return nil
}

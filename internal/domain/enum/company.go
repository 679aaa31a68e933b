package enum

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Company identifies the branded legal entity issuing a quote.
type Company string

const (
	CompanyRelocato        Company = "relocato"
	CompanyWertvoll        Company = "wertvoll"
	CompanyRuempelschmiede Company = "ruempelschmiede"
)

// Companies lists every supported entity.
var Companies = []Company{CompanyRelocato, CompanyWertvoll, CompanyRuempelschmiede}

func (c Company) String() string {
	return string(c)
}

func (c Company) IsValid() bool {
	for _, v := range Companies {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCompany returns the matching company, or fallback when s is empty
// or unknown.
func ParseCompany(s string, fallback Company) Company {
	c := Company(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c
	}
	return fallback
}

func (c Company) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *Company) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = CompanyRelocato
	case string:
		*c = Company(v)
	case []byte:
		*c = Company(v)
	default:
		return fmt.Errorf("cannot scan %T into Company", value)
	}
	return nil
}

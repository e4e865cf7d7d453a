package config

import (
	"fmt"

	"github.com/maksimkurb/restd/src/rest"
	"github.com/maksimkurb/restd/src/rest/response"
)

// ToRestConfig builds the dispatcher configuration of a resource. Behaviors,
// handlers and the default action are left for the caller to add.
func (c *Config) ToRestConfig(res *ResourceConfig) (rest.Config, error) {
	cfg := rest.Config{}

	if c.General != nil {
		cfg.MaxBodyBytes = c.General.MaxBodyBytes
	}

	if d := c.Dispatch; d != nil {
		cfg.Format = response.ParseFormat(d.Format)
		cfg.Variant = rest.Variant(d.Variant)
		cfg.BodyFormat = d.BodyFormat
		if e := d.Envelope; e != nil {
			cfg.Envelope = rest.EnvelopeFieldNames{
				StatusCode:    e.StatusCode,
				StatusText:    e.StatusText,
				Body:          e.Body,
				OmitEmptyBody: e.OmitEmptyBody,
			}
		}
	}

	if res == nil {
		return cfg, nil
	}

	if res.Variant != "" {
		cfg.Variant = rest.Variant(res.Variant)
	}

	if len(res.Routes) > 0 {
		cfg.Routes = make(rest.RouteTable, len(res.Routes))
		for actionName, handler := range res.Routes {
			action, err := rest.ParseAction(actionName)
			if err != nil {
				return cfg, fmt.Errorf("resource %s: %w", res.Name, err)
			}
			cfg.Routes[action] = handler
		}
	}

	return cfg, nil
}

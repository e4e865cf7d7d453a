package rest

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/restd/src/internal/errors"
	"github.com/maksimkurb/restd/src/rest/response"
)

// DefaultIDParam is the URL parameter ServeHTTP reads the resource id from.
const DefaultIDParam = "id"

// EnvelopeFieldNames names the three slots of a packed envelope.
type EnvelopeFieldNames struct {
	StatusCode string `validate:"required"`
	StatusText string `validate:"required,nefield=StatusCode"`
	Body       string `validate:"required,nefield=StatusCode,nefield=StatusText"`

	// OmitEmptyBody drops present but empty bodies (empty list, map or
	// string) from packed envelopes. Absent bodies are always dropped.
	OmitEmptyBody bool
}

// DefaultEnvelope returns the code/message/data envelope.
func DefaultEnvelope() EnvelopeFieldNames {
	return EnvelopeFieldNames{
		StatusCode: "code",
		StatusText: "message",
		Body:       "data",
	}
}

// Config configures a Dispatcher. It is read once by New; later changes to the
// maps it references have no effect on the Dispatcher.
type Config struct {
	// Routes remaps actions to handler names. Missing actions keep their
	// default handler name; an empty name unroutes the action.
	Routes RouteTable

	// Behaviors are run before the handler of their action.
	Behaviors BehaviorTable

	// Handlers adds or replaces named handlers. Route table entries may point
	// to any of these names, which is how handlers are aliased.
	Handlers map[string]HandlerFunc

	// Envelope names the packed envelope fields. Zero value means DefaultEnvelope.
	Envelope EnvelopeFieldNames

	// Format is applied to every response before the handler runs. Empty
	// keeps the response default (json) without setting a Content-Type.
	Format response.Format

	// Formatters replaces the response formatter registry.
	Formatters response.Formatters

	// Variant selects the transition table. Empty means VariantStrict.
	Variant Variant `validate:"omitempty,oneof=strict delete_all"`

	// BodyFormat makes Context.Reply pack data into the envelope.
	BodyFormat bool

	// NotFound is the default action. Nil means DefaultNotFound.
	NotFound func(c *Context) error

	// IDParam is the chi URL parameter holding the resource id. Empty means "id".
	IDParam string

	// MaxBodyBytes bounds request bodies. Zero keeps the request default.
	MaxBodyBytes int64 `validate:"gte=0"`
}

var validate = validator.New()

// normalize fills defaults and validates the configuration.
func (cfg Config) normalize() (Config, error) {
	if cfg.Envelope == (EnvelopeFieldNames{}) {
		cfg.Envelope = DefaultEnvelope()
	} else if cfg.Envelope == (EnvelopeFieldNames{OmitEmptyBody: true}) {
		cfg.Envelope = DefaultEnvelope()
		cfg.Envelope.OmitEmptyBody = true
	}
	if cfg.Variant == "" {
		cfg.Variant = VariantStrict
	}
	if cfg.NotFound == nil {
		cfg.NotFound = DefaultNotFound
	}
	if cfg.IDParam == "" {
		cfg.IDParam = DefaultIDParam
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, errors.NewConfigError("invalid dispatcher configuration", err)
	}
	for a := range cfg.Routes {
		if !a.Valid() {
			return cfg, errors.NewConfigError(fmt.Sprintf("route table has unknown action %s", a), nil)
		}
	}
	for a := range cfg.Behaviors {
		if !a.Valid() {
			return cfg, errors.NewConfigError(fmt.Sprintf("behavior table has unknown action %s", a), nil)
		}
	}

	return cfg, nil
}

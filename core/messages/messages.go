package messages

import (
	"context"
	"errors"
	"maps"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/core/catalog"
	"github.com/leofalp/genailite/core/template"
	"github.com/leofalp/genailite/providers/ai"
)

// Options is the input of CreateMessages. Set either PresetID or both
// ProviderID and ModelID to resolve a model context; leave all three empty
// to compile without one.
type Options struct {
	Template  string
	Variables template.Variables

	PresetID   string
	ProviderID string
	ModelID    string

	// Strict makes unresolved template variables an error.
	Strict bool
}

// Selector returns the catalog selector named by the options.
func (o Options) Selector() catalog.Selector {
	return catalog.Selector{PresetID: o.PresetID, ProviderID: o.ProviderID, ModelID: o.ModelID}
}

// Result is the compiled conversation. ModelContext is nil when no model
// was selected.
type Result struct {
	Messages     []ai.Message
	ModelContext *catalog.ModelContext
	// Resolution is the zero value when no model was selected.
	Resolution catalog.Resolution
}

// CreateMessages compiles opts.Template into messages.
//
// Errors are *aierr.Error values: a preset that disagrees with explicit
// ids, a provider without a model (or the reverse) and a missing resolver
// are configuration errors; unknown ids are resolution errors; unresolved
// variables in strict mode are validation errors.
func CreateMessages(ctx context.Context, resolver catalog.Resolver, opts Options) (*Result, error) {
	result := &Result{}

	if sel := opts.Selector(); !sel.Empty() {
		if resolver == nil {
			return nil, aierr.New(aierr.KindConfiguration, "a model was selected but no catalog is configured")
		}
		res, err := resolver.Resolve(ctx, sel)
		if err != nil {
			return nil, resolveError(err, sel)
		}
		result.Resolution = res
		result.ModelContext = res.ModelContext()
	}

	vars := template.Variables(result.ModelContext.Variables())
	maps.Copy(vars, opts.Variables)

	var rendered string
	if opts.Strict {
		out, err := template.RenderStrict(opts.Template, vars)
		if err != nil {
			return nil, aierr.Wrap(aierr.KindValidation, err, "template has unresolved variables")
		}
		rendered = out
	} else {
		rendered = template.Render(opts.Template, vars)
	}

	result.Messages = template.ParseRoleTags(rendered)
	return result, nil
}

func resolveError(err error, sel catalog.Selector) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	kind := aierr.KindResolution
	if errors.Is(err, catalog.ErrConflictingSelector) || errors.Is(err, catalog.ErrIncompleteSelector) {
		kind = aierr.KindConfiguration
	}
	e := aierr.Wrap(kind, err, "cannot resolve model")
	return e.WithProvider(sel.ProviderID, sel.ModelID)
}

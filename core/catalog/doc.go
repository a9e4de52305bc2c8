// Package catalog holds the static provider, model and preset
// configuration and resolves selectors against it.
//
// A catalog is loaded from YAML with [Load] or [Parse], or taken from the
// embedded [Default]. [Catalog.Resolve] turns a preset id or a
// provider+model pair into a [Resolution], whose [Resolution.ModelContext]
// is the capability snapshot injected into prompt templates by
// core/messages. Consumers depend on the [Resolver] interface so a remote
// or generated catalog can be plugged in instead.
//
// The YAML shape is:
//
//	providers:
//	  - id: openai
//	    base_url: https://api.openai.com/v1
//	    models:
//	      - id: o3-mini
//	        kind: chat
//	        reasoning: true
//	presets:
//	  - id: deep-reasoning
//	    provider: openai
//	    model: o3-mini
//	    reasoning_effort: high
package catalog

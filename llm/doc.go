// Package llm provides a config-driven chat completion client built on the
// httpclient/rest foundation.
//
// The adapter works with any provider via the Dialect pattern, similar to how
// database/sql works with drivers. A Dialect maps the universal
// CompletionRequest and CompletionResponse to one provider's wire format;
// the openai sub-package implements the OpenAI-compatible format served by
// OpenRouter.
//
//	import (
//	    "github.com/kbukum/quorumbot/llm"
//	    _ "github.com/kbukum/quorumbot/llm/openai"
//	)
//
//	adapter, err := llm.New(llm.Config{
//	    Dialect: "openai",
//	    BaseURL: "https://openrouter.ai/api/v1",
//	    APIKey:  token,
//	})
//	text, err := llm.Complete(ctx, adapter, "deepseek/deepseek-chat", system, question)
//
// Adapter implements provider.RequestResponse[CompletionRequest, CompletionResponse],
// so it composes with the provider middleware. It never retries.
package llm

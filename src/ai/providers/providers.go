// Package providers registers all built-in AI providers.
package providers

import (
	_ "github.com/veritas-ai/veritas/src/ai/anthropic"
	_ "github.com/veritas-ai/veritas/src/ai/openai"
)

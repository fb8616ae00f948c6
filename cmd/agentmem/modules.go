package main

// Compiled-in provider and index modules. Memory strategies and the
// in-process indexes register from the memory package.
import (
	_ "github.com/flemzord/agentmem/modules/memory/sqlite"
	_ "github.com/flemzord/agentmem/modules/provider/anthropic"
	_ "github.com/flemzord/agentmem/modules/provider/openai_compatible"
)

package prompts

import (
	_ "embed"
)

//go:embed system.txt
var DefaultSystemPrompt string

//go:embed user.txt
var UserPromptTemplate string

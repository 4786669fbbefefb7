// Package config holds the interpreter's persistent configuration.
package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/minsh-shell/minsh/core/token"
)

// DefaultPromptVar is the environment variable whose value is shown as the
// interactive prompt.
const DefaultPromptVar = "PS1"

type Configuration struct {
	// PromptVar names the environment variable holding the prompt string.
	PromptVar string `json:"prompt_var" validate:"required"`

	// MaxWords caps how many words a single line may tokenize into.
	MaxWords int `json:"max_words" validate:"required,gt=0"`

	// HistoryFile is where interactive history is persisted; empty
	// disables history.
	HistoryFile string `json:"history_file"`
}

// Default returns the configuration used when no config file is given.
func Default() *Configuration {
	return &Configuration{
		PromptVar: DefaultPromptVar,
		MaxWords:  token.DefaultMaxWords,
	}
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

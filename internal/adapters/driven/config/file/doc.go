// Package file provides file-based implementations of the ConfigStore
// and PromptStore driven ports.
//
// Configuration lives in a TOML file, prompts in user-editable text
// files with embedded defaults. Both default to directories under
// ~/.savinghaey/.
package file

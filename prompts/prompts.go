package prompts

import _ "embed"

// Embedded prompt files

//go:embed system.txt
var system string

//go:embed rewrite.txt
var rewrite string

func System() string  { return system }
func Rewrite() string { return rewrite }

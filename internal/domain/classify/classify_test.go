package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"src/index.ts", "typescript"},
		{"src/App.tsx", "typescript"},
		{"lib/util.js", "javascript"},
		{"components/Button.jsx", "javascript"},
		{"src/INDEX.TS", "typescript"},
		{"README.md", "unknown"},
		{"Makefile", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Language(tt.path), tt.path)
	}
}

func TestFramework_PriorityOrder(t *testing.T) {
	// A react import plus a CommonJS require: the UI framework wins over
	// the generic module-system indicator.
	content := `import React from 'react'
const fs = require('fs')
module.exports = {}`

	fw, ok := Framework("src/App.tsx", content)
	assert.True(t, ok)
	assert.Equal(t, "react", fw)
}

func TestFramework_Heuristics(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected string
		found    bool
	}{
		{"react import", "a.tsx", `import { useState } from "react"`, "react", true},
		{"react case-insensitive", "a.tsx", `IMPORT REACT FROM 'REACT'`, "react", true},
		{"vue import", "a.js", `import { ref } from 'vue'`, "vue", true},
		{"angular import", "a.ts", `import { Component } from '@angular/core'`, "angular", true},
		{"express calls", "server.js", `const server = express()`, "express", true},
		{"express routes", "routes.js", `app.get('/health', handler)`, "express", true},
		{"commonjs", "util.js", `module.exports = helper`, "nodejs", true},
		{"node path hint", "node_scripts/run.js", `let x = 1`, "nodejs", true},
		{"nothing", "plain.ts", `export const x = 1`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, ok := Framework(tt.path, tt.content)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, fw)
		})
	}
}

func TestFramework_AbsentIsNotEmptyMatch(t *testing.T) {
	fw, ok := Framework("plain.ts", "const x: number = 1")
	assert.False(t, ok)
	assert.Empty(t, fw)
}

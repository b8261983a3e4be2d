package cddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCddlPath(t *testing.T) {
	p := cddlPath{}
	assert.Equal(t, "$", p.String())

	p = p.push("root").push("apple")
	assert.Equal(t, "root/apple", p.String())
}

func TestValuePathRendersJSONPointerStyle(t *testing.T) {
	p := valuePath{}
	assert.Equal(t, "", p.String())

	p = p.pushKey("a").pushIndex(0).pushKey("b")
	assert.Equal(t, "/a/0/b", p.String())
}

func TestValuePathEscapesPointerSyntax(t *testing.T) {
	p := valuePath{}.pushKey("a/b").pushKey("c~d")
	assert.Equal(t, "/a~1b/c~0d", p.String())
}

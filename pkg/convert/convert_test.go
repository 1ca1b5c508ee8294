// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/comunidad/pkg/convert"
)

func TestLenientParsing(t *testing.T) {
	assert.Equal(t, 12, convert.ToIntD(" 12 ", 1))
	assert.Equal(t, 1, convert.ToIntD("doce", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))

	assert.True(t, convert.ToBool("true"))
	assert.True(t, convert.ToBool("1"))
	assert.False(t, convert.ToBool("si"))

	assert.InDelta(t, 25.5, convert.ToFloat64("25.5"), 1e-9)
	assert.Zero(t, convert.ToFloat64("lejos"))
}

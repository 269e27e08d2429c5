package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock(t *testing.T) {
	c := NewDeterministicClock(1000, 10)
	assert.EqualValues(t, 1000, c.Now())
	assert.EqualValues(t, 1010, c.Now())
	assert.EqualValues(t, 1020, c.Now())

	c.Reset()
	assert.EqualValues(t, 1000, c.Now(), "Reset rewinds the sequence")
}

func TestEntity(t *testing.T) {
	e1 := Entity(1)
	assert.Equal(t, byte(1), e1[0])
	assert.NotEqual(t, Entity(1), Entity(2))
	assert.Len(t, Entities(3), 3)
	assert.Equal(t, Entity(3), Entities(3)[2])
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitReplacesLog(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	Init("debug")
	assert.NotSame(t, prev, Log)
	assert.NotPanics(t, func() { Log.Debugf("hello %s", "world") })

	Init("")
	assert.NotNil(t, Log)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.NotPanics(t, func() {
		l.Debugf("x")
		l.Infof("x")
		l.Warnf("x")
		l.Errorf("x")
	})
}

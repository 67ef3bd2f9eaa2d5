package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	assert.NoError(t, SetLogLevel("DEBUG"))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	assert.NoError(t, SetLogLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())

	assert.Error(t, SetLogLevel("loud"))
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
}

func TestForSetsComponent(t *testing.T) {
	entry := For("localstore")
	assert.Equal(t, "localstore", entry.Data["component"])
}

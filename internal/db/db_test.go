package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open("sqlite", "file::memory:")
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestModels_ListsEveryTable(t *testing.T) {
	models := Models()
	assert.Len(t, models, 10)
}

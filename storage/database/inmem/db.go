package inmemdb

import (
	"sync"

	"github.com/trezcool/kalamu/core/content"
)

type (
	DB struct {
		content *contentTable
	}

	contentTable struct {
		table map[string]*content.Content
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		content: &contentTable{table: make(map[string]*content.Content)},
	}
}

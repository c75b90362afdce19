// Package storage persists the config and stats records as flat JSON files.
//
// Each record lives in its own file and is rewritten wholesale on every
// mutation using a temp-file + fsync + rename sequence.
package storage

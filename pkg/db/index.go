// Package db maps the configured database type onto a gorm dialector.
// Drivers register themselves behind build tags so the default build
// carries no database code.
package db

import "gorm.io/gorm"

var Factory = map[string]func(string) gorm.Dialector{}

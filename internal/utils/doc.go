// Package utils provides configuration loading and logger construction shared
// by every gittools command.
package utils

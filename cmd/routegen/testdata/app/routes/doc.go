// Package routes has no handler in this file.
package routes

// Version is not a method.
const Version = 1

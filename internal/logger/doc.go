// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services receive a context and log through the logger stored in it, so
// operation scope (logger name, transaction sender, alert id) travels with
// the call instead of being repeated at every log site.
package logger

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package cookwire implements the text wire protocol spoken between the
// controller and the cooker's microcontroller.
//
// Messages are ASCII, terminated by ';':
//
//	Controller → Cooker   RECIPE:<recipeId>;          start cooking
//	Controller → Cooker   MODULE:<id>=<signedInt>,..; apply level deltas
//	Controller → Cooker   EMERGENCY:stop;             abort immediately
//	Cooker → Controller   STATUS:<id>=<0|1>,..;       0=alert, 1=normal
//	Cooker → Controller   MODULE:<id>=<signedInt>,..; consumption/refill report
//
// Note the STATUS polarity: a wire value of "0" means the module needs
// attention. This is the hardware contract; do not "fix" it.
package cookwire

// Terminator ends every wire message.
const Terminator = ';'

// Message prefixes.
const (
	PrefixStatus    = "STATUS:"
	PrefixModule    = "MODULE:"
	PrefixRecipe    = "RECIPE:"
	PrefixEmergency = "EMERGENCY:"
)

// EmergencyStopArg is the only payload EMERGENCY carries.
const EmergencyStopArg = "stop"

// MaxBufferSize bounds the framer's accumulation buffer. A stream that
// never produces a terminator (noise, wrong baud rate) resets the buffer
// instead of growing without bound.
const MaxBufferSize = 4096

// Kind classifies a complete wire message.
type Kind string

const (
	KindStatus    Kind = "STATUS"
	KindModule    Kind = "MODULE"
	KindRecipe    Kind = "RECIPE"
	KindEmergency Kind = "EMERGENCY"
	KindUnknown   Kind = "UNKNOWN"
)

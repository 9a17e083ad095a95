// Package services contains the core application services.
//
// Services orchestrate domain logic through the driven ports and are
// the implementations behind the driving ports. They hold no
// transport or storage specifics; those live in adapters.
package services

// Package entity tracks entities and the components they own.
//
// Entities are lightweight named containers with an activation lifecycle
// (created, activated, deactivated) and a set of owned components, each
// typed by a TID resolvable through the type registry. Program entities are
// bulk-transitioned with the program; everything else is driven by explicit
// Activate/Deactivate/Destroy calls.
package entity

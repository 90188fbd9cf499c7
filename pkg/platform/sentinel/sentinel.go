package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and peer clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the local store
// - ErrConflict: entity already exists
// - ErrUnavailable: peer service or resource could not answer
// - ErrContractViolation: a component was called in a way its contract forbids
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("unavailable")
	ErrContractViolation = errors.New("contract violation")
)

package wsbridge

// DecodeReceived exposes legacy payload classification to tests.
var DecodeReceived = decodeReceived

// InCompatibilityMode reports whether the adapter runs the readiness pump.
func (a *Adapter) InCompatibilityMode() bool {
	_, ok := a.d.(*compatDriver)
	return ok
}

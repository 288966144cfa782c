package link

// Device defines the interface for exposure boxes (real or simulated).
type Device interface {
	Connect() error
	Close() error
	Status() <-chan Status
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Sim implements Device.
var _ Device = (*Sim)(nil)

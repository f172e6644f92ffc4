package core

// Connector is implemented by elements that want to know when they are
// connected to a document. Connect runs after the rendering root exists.
type Connector interface {
	Connect()
}

// Disconnector is implemented by elements that want to know when they are
// removed from a document.
type Disconnector interface {
	Disconnect()
}

// Adopter is implemented by elements that want to know when they move to a
// different document.
type Adopter interface {
	Adopted()
}

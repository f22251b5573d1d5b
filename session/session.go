package session

import "github.com/edison-alpha/intic-id-sub002/signer"

// Session carries the connected wallet's identity into every coordinator
// call. It is passed explicitly instead of living in ambient process state,
// so nothing in the coordinator depends on who happens to be "logged in".
type Session struct {
	Address string
	Network string
	Signer  signer.Signer
}

func New(address, network string, s signer.Signer) *Session {
	return &Session{Address: address, Network: network, Signer: s}
}

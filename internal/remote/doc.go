// Package remote provides the client side of the expense service.
//
// The Client interface is the contract the mutation workflow depends on:
// create returns the server-assigned ID, update and delete return only
// success or failure. HTTPClient implements it as JSON over HTTP:
//
//   - POST   /expenses       create, responds {"id": ...}
//   - PUT    /expenses/{id}  update
//   - DELETE /expenses/{id}  delete
//   - GET    /expenses       list, used to seed a session
//
// Every failure, whether transport, non-2xx status or undecodable body, is
// returned as a *RemoteError. There is no retry and no built-in timeout;
// a call only ends early when its context does.
package remote

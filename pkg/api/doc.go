// Package api defines the wire contract of the tournament server: the
// message types, the procedure names and Connect handler/client
// constructors for TournamentService and AuthService.
//
// Messages travel as JSON. Protobuf well-known types (emptypb.Empty,
// wrapperspb.Int64Value) are encoded with protojson, everything else
// with encoding/json.
package api

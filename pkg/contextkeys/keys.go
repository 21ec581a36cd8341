package contextkeys

type contextKey string

// ActorKey carries the identity of the operator performing the action.
// Authentication itself happens upstream; this layer only consumes the
// resolved identity.
const ActorKey contextKey = "actor"

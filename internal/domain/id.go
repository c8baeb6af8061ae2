package domain

import "github.com/google/uuid"

// NewID returns a fresh identifier for a rule record.
var NewID = uuid.NewString

package entities

import (
	"encoding/binary"
	"fmt"
)

const (
	// ReplySchemaV1 is the schema marker in byte 0 of every reply produced by
	// this worker revision. It versions the reply layout independently of
	// the API version.
	ReplySchemaV1 byte = 1

	// ReplySize is the length of a v1 reply header.
	ReplySize = 4

	// replyOutputSize is the size of one output record that may follow an
	// Ok reply header: a 33-byte pubkey and a 32-byte tweak.
	replyOutputSize = 33 + 32
)

// Reply is the decoded form of a worker reply buffer.
type Reply struct {
	// Status is the validation verdict.
	Status Status `json:"status"`

	// Schema is the reply schema marker.
	Schema byte `json:"schema"`
}

// NewReply returns a v1 reply carrying the given verdict.
func NewReply(status Status) Reply {
	return Reply{Schema: ReplySchemaV1, Status: status}
}

// Encode flattens the reply to its wire form:
// [schema][status][reserved=0][reserved=0].
func (r Reply) Encode() [ReplySize]byte {
	return [ReplySize]byte{r.Schema, byte(r.Status), 0, 0}
}

// DecodeReply parses a reply buffer. Only the header is interpreted; bytes
// past the header belong to later schema revisions.
func DecodeReply(b []byte) (Reply, error) {
	if len(b) < ReplySize {
		return Reply{}, fmt.Errorf("output too short")
	}
	if b[0] != ReplySchemaV1 {
		return Reply{}, fmt.Errorf("unsupported output version %d", b[0])
	}
	status, err := ParseStatus(b[1])
	if err != nil {
		return Reply{}, err
	}
	return Reply{Schema: b[0], Status: status}, nil
}

// ValidateReplyPayload checks that a reply buffer is well formed.
// A non-Ok reply is exactly one header. An Ok reply is a header followed by
// the number of output records given by the little-endian count in bytes
// 2-3, which is zero for every reply this worker produces.
func ValidateReplyPayload(b []byte) error {
	if len(b) < ReplySize {
		return fmt.Errorf("output too short")
	}
	if b[0] != ReplySchemaV1 {
		return fmt.Errorf("unsupported output version")
	}

	if Status(b[1]) != StatusOK {
		if len(b) != ReplySize {
			return fmt.Errorf("non-ok status must have empty payload")
		}
		return nil
	}

	count := int(binary.LittleEndian.Uint16(b[2:4]))
	if len(b) != ReplySize+count*replyOutputSize {
		return fmt.Errorf("invalid payload length")
	}
	return nil
}

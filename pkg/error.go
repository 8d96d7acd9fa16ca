package pkg

import "errors"

var (
	ErrStreamExist     = errors.New("stream exist")
	ErrStreamNotFound  = errors.New("stream not found")
	ErrSegmentNotFound = errors.New("segment not found")
	ErrSegmentName     = errors.New("invalid segment name")
	ErrKick            = errors.New("kick")
	ErrDiscard         = errors.New("discard")
	ErrPublishTimeout  = errors.New("publish timeout")
	ErrExceedLimit     = errors.New("exceed max count")
	ErrDisposed        = errors.New("server disposed")
)

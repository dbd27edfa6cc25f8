package model

import (
	"testing"

	"github.com/healcoin/healcoin/errcode"
	"github.com/stretchr/testify/assert"
)

const hash250 = "d5a9daab580deb9df051942d3ade23d8dd22a97f02df461177a5c09dc8826e75"

func TestParseCheckpoint(t *testing.T) {
	cp, err := ParseCheckpoint("250:" + hash250)
	assert.NoError(t, err)
	assert.Equal(t, int32(250), cp.Height)
	assert.Equal(t, hash250, cp.Hash.String())
	assert.Equal(t, "250:"+hash250, cp.String())

	cp, err = ParseCheckpoint(" 250:0x" + hash250 + " ")
	assert.NoError(t, err)
	assert.Equal(t, hash250, cp.Hash.String())
}

func TestParseCheckpointErrors(t *testing.T) {
	tests := []struct {
		in   string
		code errcode.CheckpointErr
	}{
		{"", errcode.ErrorCheckpointFormat},
		{"250", errcode.ErrorCheckpointFormat},
		{"250:" + hash250 + ":1", errcode.ErrorCheckpointFormat},
		{"abc:" + hash250, errcode.ErrorCheckpointFormat},
		{"99999999999:" + hash250, errcode.ErrorCheckpointFormat},
		{"-1:" + hash250, errcode.ErrorCheckpointNegativeHeight},
		{"250:" + hash250[:10], errcode.ErrorCheckpointHashMalformed},
		{"250:zz" + hash250[2:], errcode.ErrorCheckpointHashMalformed},
	}

	for i, test := range tests {
		_, err := ParseCheckpoint(test.in)
		if !errcode.IsErrorCode(err, test.code) {
			t.Errorf("case %d (%q): got err %v, want code %v", i, test.in, err, test.code)
		}
	}
}

func TestParseCheckpoints(t *testing.T) {
	cps, err := ParseCheckpoints(nil)
	assert.NoError(t, err)
	assert.Nil(t, cps)

	cps, err = ParseCheckpoints([]string{"1:" + hash250, "2:" + hash250})
	assert.NoError(t, err)
	assert.Len(t, cps, 2)

	_, err = ParseCheckpoints([]string{"1:" + hash250, "bad"})
	assert.Error(t, err)
}

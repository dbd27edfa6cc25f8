package errcode

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		errCode    fmt.Stringer
		want       bool
		descriptor string
	}{
		{ErrorCheckpointHashMalformed, true,
			"module: checkpoint, global errcode: " + strconv.Itoa(int(ErrorCheckpointHashMalformed)) + ",  desc: checkpoint hash is malformed"},
		{ErrorBlockAlreadyExists, true,
			"module: chain, global errcode: " + strconv.Itoa(int(ErrorBlockAlreadyExists)) + ",  desc: block already exists"},
		{ErrorConfNetworkConflict, true,
			"module: conf, global errcode: " + strconv.Itoa(int(ErrorConfNetworkConflict)) + ",  desc: regtest and testnet can not be used together"},
		{ErrorOpenBlockIndexDB, true,
			"module: persist, global errcode: " + strconv.Itoa(int(ErrorOpenBlockIndexDB)) + ",  desc: failed to open block index database"},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		err := New(test.errCode)
		result := IsErrorCode(err, test.errCode)
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, strconv.FormatBool(result), strconv.FormatBool(test.want))
		}
		if err.Error() != test.descriptor {
			t.Errorf("String #%d\n got: %s want: %s", i, err.Error(), test.descriptor)
		}
	}
}

func TestIsErrorCodeWrapped(t *testing.T) {
	err := errors.Wrapf(New(ErrorCheckpointConflict), "height %d", 250)
	assert.True(t, IsErrorCode(err, ErrorCheckpointConflict))
	assert.False(t, IsErrorCode(err, ErrorCheckpointDuplicateHash))
	assert.Contains(t, err.Error(), "height 250")

	assert.False(t, IsErrorCode(errors.New("plain"), ErrorCheckpointConflict))
	assert.False(t, IsErrorCode(nil, ErrorCheckpointConflict))
}

func TestIsErrorCodeDistinguishesModules(t *testing.T) {
	err := New(ErrorCheckpointNegativeHeight)
	assert.True(t, IsErrorCode(err, ErrorCheckpointNegativeHeight))
	assert.False(t, IsErrorCode(err, ErrorBlockAlreadyExists))
}

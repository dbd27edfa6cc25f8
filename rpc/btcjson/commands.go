package btcjson

import (
	"encoding/json"
	"fmt"
)

type GetBlockChainInfoCmd struct{}

type GetCheckpointsCmd struct{}

// CheckBlockCheckpointCmd asks whether a block with Hash at Height would
// pass the checkpoint check.
type CheckBlockCheckpointCmd struct {
	Height int32
	Hash   string
}

// SubmitHeaderCmd offers a serialized block header, hex encoded, together
// with the number of transactions in its block.
type SubmitHeaderCmd struct {
	HexHeader string
	TxCount   int32
}

// ErrUnregisteredMethod is returned by UnmarshalCmd for unknown methods.
type ErrUnregisteredMethod string

func (e ErrUnregisteredMethod) Error() string {
	return fmt.Sprintf("method %q is not registered", string(e))
}

func unmarshalParams(params []json.RawMessage, want int, dst ...interface{}) error {
	if len(params) != want {
		return fmt.Errorf("wrong number of params (expected %d, received %d)", want, len(params))
	}
	for i, p := range params {
		if err := json.Unmarshal(p, dst[i]); err != nil {
			return fmt.Errorf("parameter #%d: %v", i+1, err)
		}
	}
	return nil
}

// UnmarshalCmd turns a request into one of the concrete command types.
func UnmarshalCmd(r *Request) (interface{}, error) {
	switch r.Method {
	case "getblockchaininfo":
		if err := unmarshalParams(r.Params, 0); err != nil {
			return nil, err
		}
		return &GetBlockChainInfoCmd{}, nil
	case "getcheckpoints":
		if err := unmarshalParams(r.Params, 0); err != nil {
			return nil, err
		}
		return &GetCheckpointsCmd{}, nil
	case "checkblockcheckpoint":
		cmd := new(CheckBlockCheckpointCmd)
		if err := unmarshalParams(r.Params, 2, &cmd.Height, &cmd.Hash); err != nil {
			return nil, err
		}
		return cmd, nil
	case "submitheader":
		cmd := new(SubmitHeaderCmd)
		if err := unmarshalParams(r.Params, 2, &cmd.HexHeader, &cmd.TxCount); err != nil {
			return nil, err
		}
		return cmd, nil
	}
	return nil, ErrUnregisteredMethod(r.Method)
}

type GetBlockChainInfoResult struct {
	Chain                string  `json:"chain"`
	Blocks               int32   `json:"blocks"`
	BestBlockHash        string  `json:"bestblockhash"`
	VerificationProgress float64 `json:"verificationprogress"`
	CheckpointsEnforced  bool    `json:"checkpointsenforced"`
	TotalBlocksEstimate  int32   `json:"totalblocksestimate"`
}

type CheckpointResult struct {
	Height int32  `json:"height"`
	Hash   string `json:"hash"`
}

type GetCheckpointsResult struct {
	Enforced            bool               `json:"enforced"`
	TotalBlocksEstimate int32              `json:"totalblocksestimate"`
	Checkpoints         []CheckpointResult `json:"checkpoints"`
	LastPresent         *CheckpointResult  `json:"lastpresent,omitempty"`
}

type CheckBlockCheckpointResult struct {
	Accepted      bool   `json:"accepted"`
	Checkpointed  bool   `json:"checkpointed"`
	Expected      string `json:"expected,omitempty"`
	InActiveChain bool   `json:"inactivechain"`
}

type SubmitHeaderResult struct {
	Hash      string `json:"hash"`
	Height    int32  `json:"height"`
	BestBlock bool   `json:"bestblock"`
}

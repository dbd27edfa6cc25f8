package rpc

import (
	"bytes"
	"encoding/hex"

	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/logic/lblockindex"
	"github.com/healcoin/healcoin/model/block"
	"github.com/healcoin/healcoin/persist/global"
	"github.com/healcoin/healcoin/rpc/btcjson"
	"github.com/healcoin/healcoin/util"
)

var blockchainHandlers = map[string]commandHandler{
	"getblockchaininfo":    handleGetBlockChainInfo,
	"getcheckpoints":       handleGetCheckpoints,
	"checkblockcheckpoint": handleCheckBlockCheckpoint,
	"submitheader":         handleSubmitHeader,
}

func handleGetBlockChainInfo(s *Server, cmd interface{}) (interface{}, error) {
	status := s.cfg.Reporter.Status()
	return &btcjson.GetBlockChainInfoResult{
		Chain:                s.cfg.Checkpoints.Params().Name,
		Blocks:               status.Height,
		BestBlockHash:        status.BestHash.String(),
		VerificationProgress: status.Progress,
		CheckpointsEnforced:  status.Enforced,
		TotalBlocksEstimate:  status.TotalBlocksEstimate,
	}, nil
}

func handleGetCheckpoints(s *Server, cmd interface{}) (interface{}, error) {
	cp := s.cfg.Checkpoints
	checkpoints := cp.Checkpoints()
	result := &btcjson.GetCheckpointsResult{
		Enforced:            cp.IsEnforced(),
		TotalBlocksEstimate: cp.TotalBlocksEstimate(),
		Checkpoints:         make([]btcjson.CheckpointResult, 0, len(checkpoints)),
	}
	for _, c := range checkpoints {
		result.Checkpoints = append(result.Checkpoints, btcjson.CheckpointResult{
			Height: c.Height,
			Hash:   c.Hash.String(),
		})
	}

	global.CsMain.RLock()
	last := cp.LastCheckpointPresentIn(s.cfg.Chain)
	global.CsMain.RUnlock()
	if last != nil {
		result.LastPresent = &btcjson.CheckpointResult{
			Height: last.Height,
			Hash:   last.GetBlockHash().String(),
		}
	}
	return result, nil
}

func handleCheckBlockCheckpoint(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.CheckBlockCheckpointCmd)
	if c.Height < 0 {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCInvalidParameter, "height must be non-negative")
	}
	hash, err := util.GetHashFromStr(c.Hash)
	if err != nil {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCDecodeHexString, err.Error())
	}

	cp := s.cfg.Checkpoints
	result := &btcjson.CheckBlockCheckpointResult{
		Accepted: cp.VerifyBlock(c.Height, hash),
	}
	if expected, ok := cp.Params().Checkpoints().Lookup(c.Height); ok && cp.IsEnforced() {
		result.Checkpointed = true
		result.Expected = expected.String()
	}
	global.CsMain.RLock()
	result.InActiveChain = s.cfg.Chain.FindHashInActive(*hash) != nil
	global.CsMain.RUnlock()
	return result, nil
}

func handleSubmitHeader(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.SubmitHeaderCmd)
	raw, err := hex.DecodeString(c.HexHeader)
	if err != nil {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCDecodeHexString, err.Error())
	}
	hdr := block.NewBlockHeader()
	if len(raw) != int(hdr.SerializeSize()) {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCDeserialization, "block header must be 80 bytes")
	}
	if err := hdr.Unserialize(bytes.NewReader(raw)); err != nil || hdr.IsNull() {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCDeserialization, "block header decode failed")
	}

	global.CsMain.Lock()
	index, err := lblockindex.AcceptBlockHeader(hdr, c.TxCount, s.cfg.Chain, s.cfg.Checkpoints, s.cfg.BlockTree)
	bestBlock := err == nil && s.cfg.Chain.Tip() == index
	global.CsMain.Unlock()
	if err != nil {
		if errcode.IsErrorCode(err, errcode.ErrorWriteBlockIndexDB) {
			return nil, btcjson.NewRPCError(btcjson.ErrRPCDatabase, err.Error())
		}
		return nil, btcjson.NewRPCError(btcjson.ErrRPCVerify, err.Error())
	}
	return &btcjson.SubmitHeaderResult{
		Hash:      index.GetBlockHash().String(),
		Height:    index.Height,
		BestBlock: bestBlock,
	}, nil
}

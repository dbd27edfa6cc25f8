package chainparams

import (
	"github.com/healcoin/healcoin/model"
	"github.com/healcoin/healcoin/util"
)

// BitcoinParams holds the per network settings the checkpoint subsystem
// depends on.
type BitcoinParams struct {
	Name string
	Net  Network

	// GenesisHash pins the first block of the network; nil accepts any.
	GenesisHash *util.Hash

	// EnforceCheckpoints is the network policy; checkpoints are only
	// enforced when both the policy and the -checkpoints option allow it.
	EnforceCheckpoints bool

	checkpoints *CheckpointData
}

// What makes a good checkpoint block?
// + Is surrounded by blocks with reasonable timestamps
//   (no blocks before with a timestamp after, none after with
//    timestamp before)
// + Contains no strange transactions
const mainNetGenesisHash = "5de1108cd698eeb8fd017f52e35ac21e3bdc3f0dc653e7b1e3863c073b0be978"

var mainNetCheckpoints = []CheckpointLiteral{
	{0, mainNetGenesisHash},
	{250, "d5a9daab580deb9df051942d3ade23d8dd22a97f02df461177a5c09dc8826e75"},
	{500, "2fd5314477abcd169aeea331bfa2fe533b522e8b127f252916156a89b2d47a5b"},
	{750, "42e8b1f51c106ac651253bf5f0da52af5740532a4a2b9d330fc2fa69fecf623b"},
	{1000, "2a4bea485c6651d270d98a4eda54fedf5f2c422aa8d511444f67a638b2cefc85"},
	{1250, "d25cd1bb66112a8be397b233e0789b8804724d5ca1a0db2f5a9c413c13e0b9cc"},
	{1500, "59e032fd50ecd748ea46ccce1bd8b9b9ccdb8be62488df7abb97cfd5151fafa2"},
	{1750, "90913fc0d9e129ff32a716885adc39920cdc4d1d6d5dc78944af70e595eb62ff"},
	{2000, "205bf1b577aa2d30fd55d14f22c6e0478cfed2948310b7946055214fc1a9a26f"},
	{2250, "ec6a7fa356f58f0d9de39dc1575be64b2df3c3ff647a7e1539b0d66609833740"},
	{2500, "a4457a1769941f8e73794cae069bc2323b39fc7b06c70da7dadacdfe01f12df5"},
	{2700, "897c2f29558c5e643e4e1f27eff9d5af9872b25b33398a683449db15d4216203"},
	{3000, "e08d064900a1e98e6dec34241b5ae8cf454f9c8b1f160c7908d0777da4b8cb08"},
	{3250, "bbeb51dae681ae6106ca8462e4e2efb681415d9b8311634d92dfc5bfe4e50561"},
	{3500, "5f6f4176c5ea574769506ce70cc2b4fb5071d7fe09d95fa3dc26c588c287d020"},
	{3750, "4baa8db2fdae554b941a6c56bfc7c89c4a46c6d89d86c7fda9456f207a94b5e5"},
	{4000, "ebfc63c562919242ee257bc9b590681468e34cd3e02906ea2d512b9ec81d04cc"},
	{4250, "5f42f1379879960b2c4b22364b0b70d98abcf3231bf07cf798e1e5f47eaccf07"},
	{4500, "b1891b1f8601f54ce6dbf419ff514f109be50ab48b24e4161a19536c4a532053"},
	{4750, "6e50b1b6605889ce65ba0f2d9097b5e4e9b7344ace392fa9aaa2ef22fe724c7c"},
	{5000, "bfa4965a5b14e218567f3c5c3c6aaf0f21d86ee3d8c9fa1ecd576efc569de524"},
	{5250, "301527e0bf7d1fc0087a43ee1d206e817ce87495edc9fed5e207cc3c4eaea1b4"},
	{5500, "104ef7a19691db5914a504a0ba86dec39597cfcd7098a5226911a1181563c3b1"},
	{5700, "fceeaf69302f2a71056d636c4b24c361c8e3e8f56947bd020c30006e65a47a92"},
	{5734, "91422b6b39dcb189eeb12459d66b5dff163140668b32ad5f012998cafe62e391"},
	{5740, "c1ed5f2821739a6fb3e1f71f8c37e746ac69ebabb6b55ff33c083ea06eaa9be0"},
	{5800, "40940297a98aebaf11ccfe94a58e4e1ce6c64634b4c0fb7610448ba5bc7804cd"},
	{6000, "3826531bd1f8488109946a29d7e6c6d2d4500a31c86e8566939d20472bc9c20e"},
}

var MainNetParams = BitcoinParams{
	Name:               MainNet.String(),
	Net:                MainNet,
	GenesisHash:        util.HashFromString(mainNetGenesisHash),
	EnforceCheckpoints: true,
	checkpoints: MustNewCheckpointData(mainNetCheckpoints, ChainTxData{
		Time:    1519793938, // UNIX timestamp of last checkpoint block
		TxCount: 6001,       // total number of transactions between genesis and last checkpoint
		TxRate:  1000.0,     // estimated number of transactions per day after checkpoint
	}),
}

// TestNetParams carries no checkpoints yet.
var TestNetParams = BitcoinParams{
	Name:               TestNet.String(),
	Net:                TestNet,
	EnforceCheckpoints: true,
	checkpoints:        MustNewCheckpointData(nil, ChainTxData{}),
}

var RegressionNetParams = BitcoinParams{
	Name:               RegTest.String(),
	Net:                RegTest,
	EnforceCheckpoints: false,
	checkpoints:        MustNewCheckpointData(nil, ChainTxData{}),
}

// NetParams returns the built-in parameters of net.
func NetParams(net Network) *BitcoinParams {
	switch net {
	case TestNet:
		return &TestNetParams
	case RegTest:
		return &RegressionNetParams
	default:
		return &MainNetParams
	}
}

// NewBitcoinParams builds parameters around a custom checkpoint table.
func NewBitcoinParams(name string, net Network, enforce bool, data *CheckpointData) *BitcoinParams {
	if data == nil {
		data = MustNewCheckpointData(nil, ChainTxData{})
	}
	return &BitcoinParams{
		Name:               name,
		Net:                net,
		EnforceCheckpoints: enforce,
		checkpoints:        data,
	}
}

func (param *BitcoinParams) Checkpoints() *CheckpointData {
	return param.checkpoints
}

func (param *BitcoinParams) TxData() ChainTxData {
	return param.checkpoints.TxData()
}

// WithCheckpoints returns a copy of param whose table also holds extra.
func (param *BitcoinParams) WithCheckpoints(extra []*model.Checkpoint) (*BitcoinParams, error) {
	if len(extra) == 0 {
		return param, nil
	}
	merged, err := param.checkpoints.Merge(extra)
	if err != nil {
		return nil, err
	}
	p := *param
	p.checkpoints = merged
	return &p, nil
}

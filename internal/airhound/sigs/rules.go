package sigs

import "github.com/airhound/airhound/internal/airhound/ruleengine"

// BuiltinRuleDb is the compiled-in rule database. Each rule's expression
// is written out in explicit post-order; children precede parents, and
// AnyOf/AllOf Count values say how many already-pushed stack values they
// consume. There is no sharing by reference — repeated signatures are
// repeated Sig nodes.
var BuiltinRuleDb = buildRuleDb()

func buildRuleDb() ruleengine.Db {
	var nodes []ExprNode
	sig := func(ix int) int {
		nodes = append(nodes, ExprNode{Kind: ruleengine.NodeSig, SigIx: ix})
		return len(nodes) - 1
	}
	allOf := func(n int) { nodes = append(nodes, ExprNode{Kind: ruleengine.NodeAllOf, Count: n}) }
	anyOf := func(n int) { nodes = append(nodes, ExprNode{Kind: ruleengine.NodeAnyOf, Count: n}) }

	var rules []ruleengine.Rule
	add := func(name string, start int) {
		rules = append(rules, ruleengine.Rule{Name: name, ExprStart: start, ExprLen: len(nodes) - start})
	}

	// "Flock Safety Camera": any of {MAC OUI, SSID pattern, SSID keyword}
	// OR the nested BLE branch AllOf(XUNTONG mfr, "flock" BLE name) — the
	// latter exists purely so a lone XUNTONG manufacturer-ID hit (S3)
	// never fires this rule by itself.
	start := len(nodes)
	sig(SigIdxMacPrefixStart + 0)     // mac_oui: Flock Safety
	sig(SigIdxSsidPatternStart + 0)   // ssid_pattern: Flock-XXXXXX
	sig(SigIdxSsidKeywordStart + 0)   // ssid_keyword: "flock"
	sig(SigIdxBleMfrIdStart + 1)      // ble_mfr: XUNTONG
	sig(SigIdxBleNamePatternStart + 0) // ble_name: "flock"
	allOf(2)
	anyOf(4)
	add("Flock Safety Camera", start)

	// "Apple AirTag": Apple manufacturer ID AND the AirTag offline-finding
	// AD byte pattern right after the company ID (offset 2).
	start = len(nodes)
	sig(SigIdxBleMfrIdStart + 0) // ble_mfr: Apple
	sig(SigIdxBleAdBytesStart + 0) // ble_ad_bytes: AirTag payload @2
	allOf(2)
	add("Apple AirTag", start)

	// "Raven Acoustic Sensor": the 0x3500 service UUID alone; a bare
	// 0x180A standard UUID hit lives in a separate table and is never
	// referenced here.
	start = len(nodes)
	sig(SigIdxBleServiceUuidStart + 0)
	add("Raven Acoustic Sensor", start)

	return ruleengine.Db{Nodes: nodes, Rules: rules}
}

// ExprNode aliases ruleengine.ExprNode so rule construction above reads
// without a package-qualifier on every node literal.
type ExprNode = ruleengine.ExprNode

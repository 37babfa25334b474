package stream

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// The embed host hides the playlist link in a hidden div, encoded with one of
// a rotating set of string transforms. The div's id attribute names the
// transform, itself obfuscated by chunk-reversal. Decoded links use
// placeholder hosts ({v1}..{v5}) that map to one CDN host.

const streamHost = "thrumbleandjaxon.com"

var (
	xorKeyHexShift = []byte("pWB9V)[*4I`nJpp?ozyB~dbr9yt!_n4u")
	xorKeyRevHex   = []byte("X9a(O;FMV2-7VO5x;Ao\x05:dN1NoFs?j,")
	xorKeySliceB64 = []byte("3SAY~#%Y(V%>5d/Yg\"$G[Lh1rK4a;7ok")
)

type decoderFunc func(string) (string, bool)

var decoders = map[string]decoderFunc{
	"Iry9MQXnLs": decodeHexXorShiftB64,
	"IGLImMhWrI": decodeRot13B64,
	"GTAxQyTyBx": decodeRevStrideB64,
	"C66jPHx8qu": decodeRevHexXor,
	"MyL1IRSfHe": decodeRevShiftHex,
	"detdj7JHiK": decodeSliceB64Xor,
	"nZlUnj2VSo": decodeCaesar,
	"laM1dAi3vO": decodeRevB64Sub(5),
	"GuxKGDsA2T": decodeRevB64Sub(7),
	"LXVUMCoAHJ": decodeRevB64Sub(3),
}

// decodeStreamLink resolves the hidden-div payload into a playlist link.
// The id attribute selects the decoder; unknown ids or undecodable payloads
// report false.
func decodeStreamLink(id, encoded string) (string, bool) {
	for key, decode := range decoders {
		if id != obfuscateID(key) {
			continue
		}
		link, ok := decode(encoded)
		if !ok {
			return "", false
		}
		return addStreamHost(link), true
	}
	return "", false
}

// obfuscateID mirrors the host's id mangling: split into 3-byte chunks,
// reverse the chunk order.
func obfuscateID(s string) string {
	var chunks []string
	for i := 0; i < len(s); i += 3 {
		end := i + 3
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	var b strings.Builder
	for i := len(chunks) - 1; i >= 0; i-- {
		b.WriteString(chunks[i])
	}
	return b.String()
}

// addStreamHost substitutes the placeholder CDN hosts in a decoded link.
func addStreamHost(link string) string {
	r := strings.NewReplacer("{v1}", streamHost, "{v2}", streamHost,
		"{v3}", streamHost, "{v4}", streamHost, "{v5}", streamHost)
	return r.Replace(link)
}

func reverseBytes(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func atob(s string) (string, bool) {
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func xorWith(data []byte, key []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// hex pairs → bytes, xor, subtract 3, base64 decode.
func decodeHexXorShiftB64(in string) (string, bool) {
	raw, err := hex.DecodeString(in)
	if err != nil {
		return "", false
	}
	x := xorWith(raw, xorKeyHexShift)
	for i := range x {
		x[i] -= 3
	}
	return atob(string(x))
}

// reverse, rot13, reverse, base64 decode.
func decodeRot13B64(in string) (string, bool) {
	rev := reverseBytes(in)
	rot := []byte(rev)
	for i, c := range rot {
		switch {
		case c >= 'a' && c <= 'z':
			rot[i] = (c-'a'+13)%26 + 'a'
		case c >= 'A' && c <= 'Z':
			rot[i] = (c-'A'+13)%26 + 'A'
		}
	}
	return atob(reverseBytes(string(rot)))
}

// reverse, keep every second byte, base64 decode.
func decodeRevStrideB64(in string) (string, bool) {
	rev := reverseBytes(in)
	var b strings.Builder
	for i := 0; i < len(rev); i += 2 {
		b.WriteByte(rev[i])
	}
	return atob(b.String())
}

// reverse, hex pairs → bytes, xor.
func decodeRevHexXor(in string) (string, bool) {
	raw, err := hex.DecodeString(reverseBytes(in))
	if err != nil {
		return "", false
	}
	return string(xorWith(raw, xorKeyRevHex)), true
}

// reverse, subtract 1, hex pairs → bytes.
func decodeRevShiftHex(in string) (string, bool) {
	rev := []byte(reverseBytes(in))
	for i := range rev {
		rev[i]--
	}
	raw, err := hex.DecodeString(string(rev))
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// strip 10-byte prefix and 16-byte suffix, base64 decode, xor.
func decodeSliceB64Xor(in string) (string, bool) {
	if len(in) <= 26 {
		return "", false
	}
	decoded, ok := atob(in[10 : len(in)-16])
	if !ok {
		return "", false
	}
	return string(xorWith([]byte(decoded), xorKeySliceB64)), true
}

// caesar shift +3 with wraparound inside each alphabet.
func decodeCaesar(in string) (string, bool) {
	out := []byte(in)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'w', c >= 'A' && c <= 'W':
			out[i] = c + 3
		case c == 'x', c == 'y', c == 'z':
			out[i] = c - 23
		case c == 'X', c == 'Y', c == 'Z':
			out[i] = c - 23
		}
	}
	return string(out), true
}

// reverse, url-safe → standard base64, decode, subtract n.
func decodeRevB64Sub(n byte) decoderFunc {
	return func(in string) (string, bool) {
		rev := strings.NewReplacer("-", "+", "_", "/").Replace(reverseBytes(in))
		decoded, ok := atob(rev)
		if !ok {
			return "", false
		}
		out := []byte(decoded)
		for i := range out {
			out[i] -= n
		}
		return string(out), true
	}
}

package items

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ===== 管理コード採番 =====

// 連番の開始値と最小ゼロ埋め桁数（"CA1001" 形式）
const (
	codeSeqBase = 1001
	codeSeqPad  = 4
)

// prefixFromCategory はカテゴリ名から2文字の接頭辞を決定的に導出する．
// 全角英字は半角に畳んでから ASCII 英字のみ拾い，大文字化する．
// 英字が2文字に満たないカテゴリ名（和名のみ等）は 'X' で埋める
func prefixFromCategory(category string) string {
	folded := width.Fold.String(category)
	var b strings.Builder
	for _, r := range folded {
		if r < 128 && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() == 2 {
				break
			}
		}
	}
	for b.Len() < 2 {
		b.WriteByte('X')
	}
	return b.String()
}

// GenerateCode は既存コード集合と衝突しない管理コードを返す．
// 同じ接頭辞で使用中の最大連番＋1を採番するので，中央カウンタなしで一意性が保てる．
// 入力を変更しない純粋関数：同じ入力なら常に同じコードを返す
// （呼び出しの合間に機材が増えた場合の再採番は呼び出し側の責任）
func GenerateCode(category string, existing []string) string {
	prefix := prefixFromCategory(category)

	maxSeq := 0
	pad := codeSeqPad
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := id[len(prefix):]
		if rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
		if len(rest) > pad {
			pad = len(rest)
		}
	}

	next := codeSeqBase
	if maxSeq > 0 {
		next = maxSeq + 1
	}
	return fmt.Sprintf("%s%0*d", prefix, pad, next)
}

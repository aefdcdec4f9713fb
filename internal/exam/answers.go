package exam

import (
	"sort"
	"strconv"
	"strings"
)

// Collect builds an AnswerRecord from the live widget values posted at submit
// time. Keys follow the renderer's scheme: "q<number>" for single-answer
// widgets, "q<number>_<pos>" for sub-answers. Empty values are omitted
// entirely (an untouched text field or a matching row left on the placeholder
// never appears in the record), as are keys outside the scheme. Radio groups
// post at most their checked value, so they need no special casing here.
func Collect(values map[string]string) AnswerRecord {
	type sub struct {
		pos int
		val string
	}
	byQuestion := map[int][]sub{}
	for key, val := range values {
		if val == "" {
			continue
		}
		num, pos, ok := parseAnswerKey(key)
		if !ok {
			continue
		}
		byQuestion[num] = append(byQuestion[num], sub{pos: pos, val: val})
	}
	if len(byQuestion) == 0 {
		return AnswerRecord{}
	}
	rec := make(AnswerRecord, len(byQuestion))
	for num, subs := range byQuestion {
		sort.Slice(subs, func(i, j int) bool { return subs[i].pos < subs[j].pos })
		vals := make([]string, 0, len(subs))
		for _, s := range subs {
			vals = append(vals, s.val)
		}
		rec[strconv.Itoa(num)] = vals
	}
	return rec
}

// parseAnswerKey splits "q3" into (3, 0) and "q4_2" into (4, 2).
func parseAnswerKey(key string) (num, pos int, ok bool) {
	if !strings.HasPrefix(key, "q") {
		return 0, 0, false
	}
	body := key[1:]
	sub := ""
	if i := strings.IndexByte(body, '_'); i >= 0 {
		body, sub = body[:i], body[i+1:]
	}
	num, err := strconv.Atoi(body)
	if err != nil || num <= 0 {
		return 0, 0, false
	}
	if sub != "" {
		pos, err = strconv.Atoi(sub)
		if err != nil || pos <= 0 {
			return 0, 0, false
		}
	}
	return num, pos, true
}

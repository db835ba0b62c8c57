package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoadList reads a line-oriented word list. Blank lines and lines starting
// with "#" are skipped; items shorter than minLen characters are dropped.
func LoadList(path string, minLen int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if utf8.RuneCountInString(line) < minLen {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

// LoadBundleYAML loads sets from a YAML document.
//
// Expected format:
//
//	sets:
//	  - name: whitelist
//	    matching: [lowercase]
//	    items: [patient, arts]
//	  - name: institutions
//	    matching: [lowercase]
//	    trie: true
//	    items: [Universitair Medisch Centrum]
//
// Entries with trie: true are also registered as tries, using tokenize to
// split items into token texts.
func LoadBundleYAML(path string, tokenize func(string) []string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Sets []struct {
			Name     string   `yaml:"name"`
			Matching []string `yaml:"matching"`
			Trie     bool     `yaml:"trie"`
			Items    []string `yaml:"items"`
		} `yaml:"sets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	b := NewBundle()
	for _, entry := range doc.Sets {
		pipeline, err := ParsePipeline(entry.Matching)
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", entry.Name, err)
		}
		set := NewLookupSet(pipeline...)
		set.Add(entry.Items...)
		b.AddSet(entry.Name, set)
		if entry.Trie {
			b.AddTrie(entry.Name, TrieFromSet(set, tokenize))
		}
	}
	return b, nil
}

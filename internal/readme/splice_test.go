package readme_test

import (
	"errors"
	"testing"

	"github.com/Origin-Byte/nft-protocol/internal/lines"
	"github.com/Origin-Byte/nft-protocol/internal/readme"
)

var contracts = []readme.Entry{
	{Name: "foo", URL: "https://explorer.sui.io/object/0xABC"},
	{Name: "bar", URL: "https://explorer.sui.io/object/0xDEF"},
}

const readmeWithUsage = `# OriginByte

Intro text.

## Contracts

- stale entry
- another stale entry

## Usage

Run the thing.
`

const splicedWithUsage = `# OriginByte

Intro text.

## Contracts

Protocol contracts:
- [foo](https://explorer.sui.io/object/0xABC)
- [bar](https://explorer.sui.io/object/0xDEF)


## Usage

Run the thing.
`

func splice(t *testing.T, doc string, entries []readme.Entry) (string, readme.SpliceResult) {
	t.Helper()
	out, res := readme.Splice(lines.Split(doc), readme.Section{Entries: entries})
	return lines.Join(out), res
}

func TestSplice_followedByHeading(t *testing.T) {
	got, res := splice(t, readmeWithUsage, contracts)
	if got != splicedWithUsage {
		t.Fatalf("got:\n%s\nwant:\n%s", got, splicedWithUsage)
	}
	if !res.Found || !res.Trailing {
		t.Errorf("result: got %+v", res)
	}
	if res.Removed != 4 {
		t.Errorf("Removed: got %d, want 4", res.Removed)
	}
	if err := res.Err(); err != nil {
		t.Errorf("Err: got %v, want nil", err)
	}
}

func TestSplice_atEndOfDocument(t *testing.T) {
	doc := "# Title\n\n## Contracts\nold\n"
	want := "# Title\n\n## Contracts\n\nProtocol contracts:\n- [foo](https://explorer.sui.io/object/0xABC)\n- [bar](https://explorer.sui.io/object/0xDEF)\n\n"
	got, res := splice(t, doc, contracts)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if res.Trailing {
		t.Error("Trailing: got true, want false")
	}
}

func TestSplice_headingWithoutNewline(t *testing.T) {
	got, _ := splice(t, "## Contracts", contracts[:1])
	want := "## Contracts\n\nProtocol contracts:\n- [foo](https://explorer.sui.io/object/0xABC)\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplice_idempotent(t *testing.T) {
	for _, doc := range []string{readmeWithUsage, "## Contracts\nold\n"} {
		once, _ := splice(t, doc, contracts)
		twice, _ := splice(t, once, contracts)
		if once != twice {
			t.Errorf("second splice changed the document:\nfirst:\n%s\nsecond:\n%s", once, twice)
		}
	}
}

func TestSplice_noHeading(t *testing.T) {
	doc := "# Title\n\n## Usage\n"
	got, res := splice(t, doc, contracts)
	if got != doc {
		t.Errorf("expected unchanged document, got %q", got)
	}
	if !errors.Is(res.Err(), readme.ErrNoSection) {
		t.Errorf("Err: got %v, want ErrNoSection", res.Err())
	}
}

func TestSplice_duplicateHeading(t *testing.T) {
	doc := "## Contracts\nold\n## Contracts\nkept\n"
	want := "## Contracts\n\nProtocol contracts:\n- [foo](https://explorer.sui.io/object/0xABC)\n\n\n## Contracts\nkept\n"
	got, res := splice(t, doc, contracts[:1])
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates: got %d, want 1", res.Duplicates)
	}
	if !errors.Is(res.Err(), readme.ErrDuplicateSection) {
		t.Errorf("Err: got %v, want ErrDuplicateSection", res.Err())
	}
}

func TestSplice_subheadingEndsRegion(t *testing.T) {
	doc := "## Contracts\nold\n### Testnet\nkept\n"
	want := "## Contracts\n\nProtocol contracts:\n\n\n### Testnet\nkept\n"
	got, _ := splice(t, doc, nil)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplice_crlf(t *testing.T) {
	doc := "## Contracts\r\nold\r\n## Usage\r\n"
	want := "## Contracts\r\n\r\nProtocol contracts:\r\n- [foo](https://explorer.sui.io/object/0xABC)\r\n\r\n\r\n## Usage\r\n"
	got, _ := splice(t, doc, contracts[:1])
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplice_customSection(t *testing.T) {
	doc := "## Deployments\n## Next\n"
	out, res := readme.Splice(lines.Split(doc), readme.Section{
		Heading: "## Deployments",
		Label:   "Testnet packages:",
		Entries: contracts[:1],
	})
	want := "## Deployments\n\nTestnet packages:\n- [foo](https://explorer.sui.io/object/0xABC)\n\n\n## Next\n"
	if got := lines.Join(out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if res.Removed != 0 {
		t.Errorf("Removed: got %d, want 0", res.Removed)
	}
}

// Package transtree round-trips translatable, richly formatted content
// between a tree of nodes and the flat placeholder string translators edit.
//
// A children tree of text, elements and interpolation slots serializes into
// a string like "lorem <br/> ipsum {{count}}" that doubles as the
// translation key and default value. Translators may reorder, duplicate,
// nest or drop the numbered and literal tags; reconciliation parses the
// edited string and rebuilds a structurally valid tree, re-attaching the
// original elements by placeholder index or name.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/ZaguanLabs/transtree"
//	    "github.com/ZaguanLabs/transtree/store"
//	)
//
//	func main() {
//	    children := []transtree.Node{
//	        transtree.Text("lorem "),
//	        &transtree.Element{Tag: "br"},
//	        transtree.Text(" ipsum "),
//	        transtree.Var("count", 2),
//	    }
//
//	    mem := store.NewMemory()
//	    mem.AddResource("fr", "translation",
//	        "lorem <br/> ipsum {{count}}", "lorem <br/> ipsum {{count}}")
//
//	    tr := transtree.NewTranslator(mem)
//	    nodes, err := tr.Render(context.Background(), transtree.RenderRequest{
//	        Children: children,
//	        Locale:   "fr",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // nodes: [Text("lorem "), <br/>, Text(" ipsum "), Text("2")]
//	}
//
// The Codec alone covers the string contract: Serialize flattens children,
// Reconcile rebuilds them from a translated string, CollectValues gathers
// the interpolation data. The Translator adds key lookup, machine
// translation of missing strings and placeholder linting on top.
package transtree

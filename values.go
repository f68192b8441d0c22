package transtree

// CollectValues walks children and gathers every interpolation entry into
// one flat map: the data the serialized {{name}} placeholders will
// reference. Entries merge in tree order, later keys winning. Formats are
// never collected.
func (c *Codec) CollectValues(children []Node) map[string]any {
	values := make(map[string]any)
	c.collectValues(children, values)
	return values
}

func (c *Codec) collectValues(children []Node, values map[string]any) {
	for _, child := range children {
		switch child := child.(type) {
		case *Element:
			if child != nil && len(child.Children) > 0 {
				c.collectValues(child.Children, values)
			}
		case *Interpolation:
			if child == nil {
				continue
			}
			for k, v := range child.Entries {
				values[k] = v
			}
		}
	}
}

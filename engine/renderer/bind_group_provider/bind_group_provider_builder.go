package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithGroup sets the @group index the provider binds to.
//
// Parameters:
//   - group: the group index
//
// Returns:
//   - BindGroupProviderOption: a function that sets the group index
func WithGroup(group int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.group = group
	}
}

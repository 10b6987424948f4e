/*
Package msgspec parses message definition (.msg) files and resolves the message types they depend on.

A message definition has one field per line ("<type> <name>"), optional constants ("<type> <NAME>=<value>"), and "#" comments. Field types are primitives, other messages of the same package ("Position"), package-qualified messages ("std_msgs/Header"), or arrays of any of those ("Position[]", "uint8[4]").

Typical use is to load one message in to a fresh [MsgContext], then resolve its dependencies against a [SearchPath]:

	ctx := msgspec.NewMsgContext()
	spec, err := msgspec.LoadMsgFromFile(ctx, "msg/VehicleStatus.msg", msgspec.ComputeFullTypeName("px4", "VehicleStatus.msg"))
	if err != nil {
		return err
	}
	sp, err := msgspec.IncludePathToSearchPath([]string{"px4:msg"})
	if err != nil {
		return err
	}
	if err := msgspec.LoadDepends(ctx, spec, sp); err != nil {
		return err
	}
*/
package msgspec

// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package urlload drives a single resource fetch from creation through
completion, delivering the results of the fetch to a consumer as an
ordered stream of asynchronous messages.

Each fetch is owned by a Controller, a small state machine which runs
on a serialized I/O loop and reports progress through a Dispatcher.
Create a Loop, construct a Controller with a request descriptor and a
dispatcher, and post Start onto the loop to begin the load:

	loop := urlload.NewLoop()
	desc, err := request.NewDescriptor("GET", "https://www.example.com")
	...
	c := urlload.New(desc, dispatcher, loop)
	loop.Post(func() { c.Start(false) })

The dispatcher receives, in order: zero or more WillSendRequest
messages (one per redirect), exactly one DidReceiveResponse, zero or
more data messages, and finally exactly one of DidFinishLoading or
DidFail. The controller never blocks on the dispatcher; to deliver
messages on a consumer goroutine, wrap the dispatcher with
PostDispatcher and a consumer-owned Loop.

A controller fetches content one of four ways, chosen once when Start
is called: a live network fetch through an HTTPDoer transport; a
literal data URL decoded in place; an embedded byte stream pulled
through a StreamBridge; or an internal synthetic page resolved through
an AssetBridge. All four paths present the same message sequence to the
consumer.

Controller methods must be invoked on the controller's loop. Cancel is
the only operation a consumer is expected to request from outside the
I/O context, and even it must be handed off by posting onto the loop.

Misusing a controller (starting it twice, appending upload bytes after
Start, releasing it before it has finished) is a contract violation and
panics rather than returning an error.
*/
package urlload

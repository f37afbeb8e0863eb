// SPDX-License-Identifier: EPL-2.0

// Package codec drives codec backends through a push/pull protocol.
//
// A session has four states. Idle accepts input. Sending holds input whose
// output is still being received. Draining follows the flush signal.
// Ended is terminal.
//
//	Idle --Send(x)--> Sending --Receive: NeedInput--> Idle
//	Idle --Send(nil)--> Draining --Receive: EndOfStream--> Ended
//
// Receive returns a Result tagged Output, NeedInput, EndOfStream or Error,
// so callers never compare magic return codes:
//
//	if err := sess.Send(pkt); err != nil {
//	    return err
//	}
//	for {
//	    r := sess.Receive()
//	    if r.Status == codec.StatusError {
//	        return r.Err
//	    }
//	    if !r.IsOutput() {
//	        break // NeedInput or EndOfStream
//	    }
//	    use(r.Value)
//	}
//
// Decode, Encode and Flush wrap the same loop as iterators.
//
// Backend failures end the session and surface as *media.CodecError,
// which matches media.ErrCodecFailure.
package codec
